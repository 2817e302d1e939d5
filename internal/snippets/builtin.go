package snippets

// Builtin returns the built-in Python examples.
func Builtin() []Snippet {
	return []Snippet{
		{
			Name:        "len()",
			Description: "Returns the length of an object (string, list, etc.).",
			Example: `my_list = [1, 2, 3, 4, 5]
print(f'List length: {len(my_list)}')  # Output: List length: 5

my_string = 'Hello World'
print(f'String length: {len(my_string)}')  # Output: String length: 11`,
		},
		{
			Name:        "range()",
			Description: "Generates a sequence of numbers.",
			Example: `# Basic range
for i in range(5):
    print(i, end=' ')  # Output: 0 1 2 3 4

# Range with start and stop
for i in range(2, 7):
    print(i, end=' ')  # Output: 2 3 4 5 6`,
		},
		{
			Name:        "str()",
			Description: "Converts an object to a string.",
			Example: `num = 42
result = str(num) + ' apples'
print(result)  # Output: '42 apples'

pi = 3.14159
print(f'Pi as string: {str(pi)}')  # Output: Pi as string: 3.14159`,
		},
		{
			Name:        "type()",
			Description: "Returns the type of an object.",
			Example: `num = 42
text = 'Hello'
my_list = [1, 2, 3]

print(type(num))      # Output: <class 'int'>
print(type(text))     # Output: <class 'str'>
print(type(my_list))  # Output: <class 'list'>`,
		},
		{
			Name:        "print()",
			Description: "Outputs text or variables to the console.",
			Example: `name = 'Alice'
age = 25

print('Hello, World!')  # Basic print
print(f'Name: {name}, Age: {age}')  # Formatted string
print(name, age, sep=' - ')  # Custom separator`,
		},
		{
			Name:        "input()",
			Description: "Gets user input from the console.",
			Example: `# Basic input
user_name = input('Enter your name: ')
print(f'Hello, {user_name}!')

# Input with type conversion
age = int(input('Enter your age: '))
print(f'You are {age} years old')`,
		},
	}
}
