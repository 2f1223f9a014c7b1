package subject

import "gopherai-tutor/internal/model"

// DefaultSubject is selected for new sessions and whenever the selected custom
// subject is removed.
const DefaultSubject = "Python Programming"

// Builtins returns the built-in subjects in declaration order.
func Builtins() []model.Subject {
	return []model.Subject{
		{
			Name:        "Python Programming",
			Description: "Learn Python programming concepts, syntax, and best practices",
			Context:     "Python programming language including syntax, data structures, algorithms, object-oriented programming, and libraries",
			Icon:        "🐍",
			ExampleQuestions: []string{
				"How do I create a class in Python?",
				"What's the difference between lists and tuples?",
				"How do I handle exceptions in Python?",
				"How do I work with files in Python?",
				"What are Python decorators and how do I use them?",
			},
			StudyTips: []string{
				"Practice coding daily for at least 30 minutes",
				"Read error messages carefully - they often tell you exactly what's wrong",
				"Use the Python documentation as a reference",
				"Try to understand concepts, don't just memorize syntax",
				"Build small projects to apply what you learn",
			},
			QuickReference: &model.QuickReference{
				Type:     "code",
				Language: "python",
				Content: `# Python Basics
print("Hello World")
variable = "value"
my_list = [1, 2, 3]
my_dict = {"key": "value"}

# Function
def my_function(param):
    return param * 2

# Class
class MyClass:
    def __init__(self, value):
        self.value = value

    def get_value(self):
        return self.value`,
			},
		},
		{
			Name:        "Basic Algebra",
			Description: "Master fundamental algebraic concepts and problem-solving",
			Context:     "Basic algebra including linear equations, quadratic equations, polynomials, factoring, and algebraic expressions",
			Icon:        "📐",
			ExampleQuestions: []string{
				"How do I solve linear equations?",
				"What is the quadratic formula?",
				"How do I factor polynomials?",
				"What are the properties of exponents?",
				"How do I graph linear functions?",
			},
			StudyTips: []string{
				"Practice solving different types of problems regularly",
				"Check your work by substituting answers back into equations",
				"Keep a formula sheet for quick reference",
				"Break complex problems into smaller steps",
				"Understand the 'why' behind each step",
			},
			QuickReference: &model.QuickReference{
				Type: "latex",
				Content: `\text{Quadratic Formula:}\\
x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}\\
\\
\text{Slope Formula:}\\
m = \frac{y_2 - y_1}{x_2 - x_1}\\
\\
\text{Distance Formula:}\\
d = \sqrt{(x_2 - x_1)^2 + (y_2 - y_1)^2}`,
			},
		},
		{
			Name:        "Calculus",
			Description: "Understand derivatives, integrals, and calculus concepts",
			Context:     "Calculus including limits, derivatives, integrals, differential equations, and applications",
			Icon:        "∫",
			ExampleQuestions: []string{
				"What is a derivative?",
				"How do I find the integral of a function?",
				"What is the chain rule?",
				"How do I find limits?",
				"What are applications of derivatives in real life?",
			},
			StudyTips: []string{
				"Master the fundamentals before moving to advanced topics",
				"Practice graphing functions to visualize concepts",
				"Use online graphing tools to check your work",
				"Work through many practice problems",
				"Connect calculus concepts to real-world applications",
			},
			QuickReference: &model.QuickReference{
				Type: "latex",
				Content: `\text{Power Rule:}\\
\frac{d}{dx}[x^n] = nx^{n-1}\\
\\
\text{Chain Rule:}\\
\frac{d}{dx}[f(g(x))] = f'(g(x)) \cdot g'(x)\\
\\
\text{Fundamental Theorem:}\\
\int_a^b f'(x)dx = f(b) - f(a)`,
			},
		},
		{
			Name:        "Data Science",
			Description: "Learn data analysis, statistics, and machine learning basics",
			Context:     "Data science including statistics, data analysis, machine learning, data visualization, and Python libraries like pandas, numpy, and scikit-learn",
			Icon:        "📊",
			ExampleQuestions: []string{
				"What is the difference between supervised and unsupervised learning?",
				"How do I clean messy data?",
				"What is cross-validation?",
				"How do I interpret correlation vs causation?",
				"What are the steps in a data science project?",
			},
			StudyTips: []string{
				"Practice with real datasets",
				"Learn to ask the right questions about data",
				"Understand statistics before diving into machine learning",
				"Document your analysis process",
				"Focus on interpreting results, not just running algorithms",
			},
			QuickReference: &model.QuickReference{
				Type:     "code",
				Language: "python",
				Content: `# Data Science Basics
import pandas as pd
import numpy as np
import matplotlib.pyplot as plt

# Load data
df = pd.read_csv('data.csv')

# Basic exploration
df.head()
df.info()
df.describe()

# Visualization
plt.scatter(df['x'], df['y'])
plt.show()`,
			},
		},
		{
			Name:        "Web Development",
			Description: "Build websites with HTML, CSS, JavaScript, and frameworks",
			Context:     "Web development including HTML, CSS, JavaScript, React, Node.js, and web technologies",
			Icon:        "🌐",
			ExampleQuestions: []string{
				"What's the difference between HTML and CSS?",
				"How do I make a responsive website?",
				"What is the DOM in JavaScript?",
				"How do I center a div?",
				"What are the benefits of using a framework like React?",
			},
			StudyTips: []string{
				"Build projects to apply what you learn",
				"Use browser developer tools to debug",
				"Stay updated with web standards and best practices",
				"Practice responsive design from the start",
				"Learn version control (Git) early",
			},
			QuickReference: &model.QuickReference{
				Type:     "code",
				Language: "html",
				Content: `<!DOCTYPE html>
<html>
<head>
    <title>My Page</title>
</head>
<body>
    <div class="container">
        <h1>Hello World</h1>
    </div>
</body>
</html>`,
			},
		},
	}
}
